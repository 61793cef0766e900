// Package model defines database models
package model

import "github.com/google/uuid"

// All lists every model in dependency order. It's used for migrations.
func All() []any {
	return []any{
		&User{},
		&Session{},
		&Account{},
		&Verification{},
		&RoleRequest{},
		&Note{},
		&Classroom{},
		&EnrolledClass{},
		&ClassTopic{},
		&Chat{},
		&Stream{},
		&Classwork{},
		&StreamComment{},
		&StreamPrivateComment{},
		&Notification{},
	}
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
