// Package domain contains the core entities of the flashcard service: cards,
// reviews, study sessions and the statistics derived from them. It has no
// knowledge of storage or transport.
package domain
