// Package movie implements the movie-review benchmark family.
package movie

import (
	"strings"
)

const (
	usernameLength = 21
	passwordLength = 13
	lastNameLength = 14
	firstNameLen   = 15
	titleLength    = 100
	movieIDLength  = 4
	reviewTextLen  = 256

	// NumUsers is the size of the preloaded user table.
	NumUsers = 1000
)

// Movies is the fixed title pool. Titles on disk carry a 12-digit index
// prefix so the sharder can route them.
var Movies = []string{
	"The Shawshank Redemption",
	"The Godfather",
	"The Dark Knight",
	"12 Angry Men",
	"Schindler's List",
	"Pulp Fiction",
	"The Lord of the Rings: The Return of the King",
	"The Good, the Bad and the Ugly",
	"Fight Club",
	"Forrest Gump",
	"Inception",
	"Star Wars: Episode V",
	"The Matrix",
	"Goodfellas",
	"One Flew Over the Cuckoo's Nest",
	"Seven Samurai",
	"Se7en",
	"City of God",
	"Life Is Beautiful",
	"It's a Wonderful Life",
	"The Silence of the Lambs",
	"Spirited Away",
	"Saving Private Ryan",
	"Interstellar",
	"The Green Mile",
	"Parasite",
	"Leon: The Professional",
	"Back to the Future",
	"The Pianist",
	"Terminator 2: Judgment Day",
	"Modern Times",
	"Psycho",
	"Gladiator",
	"City Lights",
	"The Departed",
	"Whiplash",
	"Grave of the Fireflies",
	"The Prestige",
	"Casablanca",
	"Once Upon a Time in the West",
	"Rear Window",
	"Cinema Paradiso",
	"Alien",
	"Apocalypse Now",
	"Memento",
	"Raiders of the Lost Ark",
	"The Great Dictator",
	"Django Unchained",
	"WALL-E",
	"The Lives of Others",
}

// AddLeadingZeros left-pads the decimal string to the given width.
func AddLeadingZeros(width int, s string) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// AddTrailingSpaces right-pads the string to the given width.
func AddTrailingSpaces(width int, s string) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
