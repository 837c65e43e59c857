package firestore

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/pressline/taskboard/pkg/domain/interfaces"
)

var (
	ErrNotFound      = interfaces.ErrNotFound
	ErrAlreadyExists = goerr.New("already exists")
)
