package unzipr

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Kind identifies the category of an Error.
type Kind int

const (
	// KindIO wraps any lower-level failure not covered by the other kinds.
	KindIO Kind = iota
	// KindDoesNotExist means the top-level archive could not be opened because it is absent.
	KindDoesNotExist
	// KindNotAnArchive means the bytes of a file or a zip entry do not parse as a zip archive.
	KindNotAnArchive
	// KindEntryNotFound means a requested member name has no exact match in the current archive.
	KindEntryNotFound
	// KindUnpackTargetMissing means pipe mode was invoked without a trailing member name.
	KindUnpackTargetMissing
	// KindArchiveMissing means no archive was given at all.
	KindArchiveMissing
	KindCannotCreateDirectory
	KindCannotCreateFile
	KindCannotSetPermissions
	KindTargetAlreadyExists
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "IO"
	case KindDoesNotExist:
		return "DoesNotExist"
	case KindNotAnArchive:
		return "NotAnArchive"
	case KindEntryNotFound:
		return "EntryNotFound"
	case KindUnpackTargetMissing:
		return "UnpackTargetMissing"
	case KindArchiveMissing:
		return "ArchiveMissing"
	case KindCannotCreateDirectory:
		return "CannotCreateDirectory"
	case KindCannotCreateFile:
		return "CannotCreateFile"
	case KindCannotSetPermissions:
		return "CannotSetPermissions"
	case KindTargetAlreadyExists:
		return "TargetAlreadyExists"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the only error type returned by this module's archive, resolver, and unpack operations.
//
// Use errors.Is against the Err* sentinels to test for a kind, or errors.As to inspect Path and Mode.
type Error struct {
	Kind Kind
	// Path is the offending identifier: a file path, a member name, or a destination path depending on Kind.
	Path string
	// Mode is only set for KindCannotSetPermissions.
	Mode os.FileMode
	// Nested is true if a KindNotAnArchive error is about a member inside another archive rather than a file.
	Nested bool
	// Hint is an optional description of what the bytes looked like instead, e.g. ".tar.gz".
	Hint string
	// Err is the underlying cause, if any.
	Err error
}

// Sentinels usable with errors.Is. Only the Kind is compared.
var (
	ErrIO                    = &Error{Kind: KindIO}
	ErrDoesNotExist          = &Error{Kind: KindDoesNotExist}
	ErrNotAnArchive          = &Error{Kind: KindNotAnArchive}
	ErrEntryNotFound         = &Error{Kind: KindEntryNotFound}
	ErrUnpackTargetMissing   = &Error{Kind: KindUnpackTargetMissing}
	ErrArchiveMissing        = &Error{Kind: KindArchiveMissing}
	ErrCannotCreateDirectory = &Error{Kind: KindCannotCreateDirectory}
	ErrCannotCreateFile      = &Error{Kind: KindCannotCreateFile}
	ErrCannotSetPermissions  = &Error{Kind: KindCannotSetPermissions}
	ErrTargetAlreadyExists   = &Error{Kind: KindTargetAlreadyExists}
)

func (e *Error) Error() string {
	var sb strings.Builder

	switch e.Kind {
	case KindIO:
		sb.WriteString("io error")
		if e.Path != "" {
			fmt.Fprintf(&sb, ` (path=%s)`, e.Path)
		}
	case KindDoesNotExist:
		fmt.Fprintf(&sb, `no such file or directory "%s"`, e.Path)
	case KindNotAnArchive:
		if e.Nested {
			fmt.Fprintf(&sb, `zip entry "%s" is not a zip archive`, e.Path)
		} else {
			fmt.Fprintf(&sb, `file "%s" is not a zip archive`, e.Path)
		}
		if e.Hint != "" {
			fmt.Fprintf(&sb, " (looks like %s)", e.Hint)
		}
		return sb.String()
	case KindEntryNotFound:
		fmt.Fprintf(&sb, `zip archive does not contain entry "%s"`, e.Path)
		return sb.String()
	case KindUnpackTargetMissing:
		return "no nested target file provided for pipe, please provide the file you want to extract"
	case KindArchiveMissing:
		return "no archive file provided"
	case KindCannotCreateDirectory:
		fmt.Fprintf(&sb, `cannot create directory "%s"`, e.Path)
	case KindCannotCreateFile:
		fmt.Fprintf(&sb, `cannot create file "%s"`, e.Path)
	case KindCannotSetPermissions:
		fmt.Fprintf(&sb, `cannot set permissions %#o for file "%s"`, uint32(e.Mode.Perm()), e.Path)
	case KindTargetAlreadyExists:
		fmt.Fprintf(&sb, `unpack target "%s" already exists`, e.Path)
		return sb.String()
	default:
		sb.WriteString(e.Kind.String())
	}

	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain.
//
// The boolean is false if there is no *Error in the chain, in which case the error should be treated as KindIO.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}

	return KindIO, false
}

// WrapIO wraps err as a KindIO error unless it already has an *Error in its chain.
func WrapIO(path string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}

	return &Error{Kind: KindIO, Path: path, Err: err}
}
