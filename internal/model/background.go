package model

// Backgrounds is the fixed set of board background images offered by the picker.
var Backgrounds = []string{
	"/backgrounds/pictures/aurora.jpg",
	"/backgrounds/pictures/fjord.jpg",
	"/backgrounds/pictures/forest.jpg",
	"/backgrounds/pictures/mountains.jpg",
	"/backgrounds/pictures/ocean.jpg",
	"/backgrounds/pictures/sunset.jpg",
}

// IsBackground reports whether path is empty (no background) or one of Backgrounds.
func IsBackground(path string) bool {
	if path == "" {
		return true
	}
	for _, b := range Backgrounds {
		if b == path {
			return true
		}
	}
	return false
}
