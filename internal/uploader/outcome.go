package uploader

import (
	"errors"
	"strings"
)

type Kind string

const (
	KindScript   Kind = "SCRIPT"
	KindMetadata Kind = "METADATA"
)

const storeSettingsLabel = "[API store settings] "

// Outcome is the result of one upload to one account.
type Outcome struct {
	Kind       Kind
	Account    string
	ScriptName string
	ScriptPath string
	NewScript  bool
	Err        error
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

// String renders the outcome as the human readable line that is logged.
func (o Outcome) String() string {
	var sb strings.Builder
	sb.WriteString(o.Account)
	sb.WriteString(": ")
	if o.Kind == KindMetadata {
		sb.WriteString(storeSettingsLabel)
	}

	if o.Err == nil {
		sb.WriteString(o.ScriptPath + " -> " + o.ScriptName)
		if o.NewScript {
			sb.WriteString(" (new script created)")
		}
		return sb.String()
	}

	subject := o.ScriptPath
	if o.Kind == KindMetadata {
		if e, ok := errors.AsType[*FileReadError](o.Err); ok {
			subject = e.Path
		} else if e, ok := errors.AsType[*JSONParseError](o.Err); ok {
			subject = e.Path
		}
	}

	sb.WriteString(subject + ": " + o.Err.Error())
	return sb.String()
}
