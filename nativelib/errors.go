package nativelib

import (
	"errors"

	"github.com/ZebulonRouseFrantzich/nekoload/internal/artifact"
	"github.com/ZebulonRouseFrantzich/nekoload/internal/loader"
	"github.com/ZebulonRouseFrantzich/nekoload/internal/lock"
	"github.com/ZebulonRouseFrantzich/nekoload/internal/platform"
)

// Errors returned by Init. Match them with errors.Is.
var (
	ErrUnsupportedPlatform     = platform.ErrUnsupportedPlatform
	ErrUnsupportedArchitecture = platform.ErrUnsupportedArchitecture
	ErrResourceNotFound        = artifact.ErrResourceNotFound
	ErrInvalidHash             = artifact.ErrInvalidHash
	ErrManifestSignature       = artifact.ErrManifestSignature
	ErrExtraction              = artifact.ErrExtraction
	ErrLockSemantics           = lock.ErrLockSemantics
	ErrLoad                    = loader.ErrLoad

	// ErrAlreadyPoisoned is returned by every Init call after the first one
	// failed. The original cause is wrapped alongside it.
	ErrAlreadyPoisoned = errors.New("native library already failed to load, refusing to try again")

	// ErrInvalidConfig is returned when Config is missing a required field.
	ErrInvalidConfig = errors.New("invalid native library config")
)
