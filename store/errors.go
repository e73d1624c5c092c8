package store

import (
	"errors"

	"bqquote/models"
)

var (
	ErrItemNotFound     = errors.New("catalog item not found")
	ErrProjectNotFound  = errors.New("project not found")
	ErrVersionNotFound  = errors.New("version not found")
	ErrLineNotFound     = errors.New("line item not found")
	ErrVersionNameTaken = errors.New("version name already used in this project")
	ErrLastVersion      = errors.New("a project must keep at least one version")
	ErrInvalidField     = models.ErrUnknownField
)
