package service_test

import "localboard/internal/dnd"

func dndReorder(columnID uint, index int) dnd.Move {
	return dnd.ReorderColumn{ColumnID: columnID, TargetIndex: index}
}

func dndMoveCard(cardID, from, to uint, index int) dnd.Move {
	return dnd.MoveCard{CardID: cardID, FromColumnID: from, ToColumnID: to, TargetIndex: index}
}
