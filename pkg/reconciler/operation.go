package reconciler

import (
	"github.com/ehuff700/cmdlink/pkg/errors"
	"github.com/ehuff700/cmdlink/pkg/types"
)

// OpKind is the requested mutation on the alias set.
type OpKind int

const (
	// OpAdd registers a new alias; fails if the name is live.
	OpAdd OpKind = iota

	// OpUpdate replaces the target of an existing alias.
	OpUpdate

	// OpRemove deletes an alias and its artifact.
	OpRemove

	// OpRename moves an alias to a new name. It is remove-then-add under
	// one transaction boundary, so a mid-rename failure never leaves two
	// live aliases nor zero.
	OpRename
)

func (k OpKind) String() string {
	switch k {
	case OpAdd:
		return "add"
	case OpUpdate:
		return "update"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Operation is one requested alias mutation.
type Operation struct {
	Kind OpKind

	// Name identifies the alias being operated on.
	Name string

	// NewName is the destination name for OpRename.
	NewName string

	// Def carries the target specification for OpAdd and OpUpdate. Its
	// Name field is ignored; Name above wins.
	Def types.AliasDefinition
}

func (op Operation) validate() error {
	if err := types.ValidateName(op.Name); err != nil {
		return err
	}
	switch op.Kind {
	case OpAdd, OpUpdate:
		def := op.Def
		def.Name = op.Name
		return def.Validate()
	case OpRename:
		if err := types.ValidateName(op.NewName); err != nil {
			return err
		}
		if op.NewName == op.Name {
			return errors.Newf(errors.ErrInvalidInput,
				"rename source and destination are both %q", op.Name)
		}
		return nil
	case OpRemove:
		return nil
	default:
		return errors.Newf(errors.ErrInternal, "unknown operation kind %d", op.Kind)
	}
}

// Result reports how an operation concluded.
type Result struct {
	// State is the terminal reconciler state for the operation.
	State types.OpState

	// Alias is the primary alias the operation acted on.
	Alias string

	// Elevated is true when installing the path entry required elevation.
	Elevated bool

	// Warning is set for conditions the user must see even on success,
	// such as a definition committed but not yet installed.
	Warning string
}
