package uid

import "github.com/google/uuid"

// GenerateGameID returns a random identifier for a new game.
func GenerateGameID() string {
	return uuid.NewString()
}

// GenerateBoardID returns a random identifier for the board of an accepted game.
func GenerateBoardID() string {
	return uuid.NewString()
}

// Valid reports whether id has the shape of an identifier issued here.
func Valid(id string) bool {
	return uuid.Validate(id) == nil
}
