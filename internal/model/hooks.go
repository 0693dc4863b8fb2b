package model

import "github.com/google/uuid"

// assignID gives a row its primary key before insert. Keys are generated in
// the application so the same models work on Postgres and SQLite.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
