package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrArtifactNotFound is returned when a contract reference does not resolve to a
	// deployable artifact in the build output
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrDeploymentFailed covers every failure between submitting the creation
	// transaction and seeing contract code on-chain
	ErrDeploymentFailed = errors.New("deployment failed")

	// ErrMissingSigner is returned when no private key is configured for a non-dev chain
	ErrMissingSigner = errors.New("no signer configured")

	// ErrNetworkNotFound is returned when a network name has no RPC endpoint
	ErrNetworkNotFound = errors.New("network not found")

	// ErrDeploymentCancelled is returned when the user declines the confirmation prompt
	ErrDeploymentCancelled = errors.New("deployment cancelled")
)

// DeployStage names the step of a deployment an error happened in
type DeployStage string

const (
	StageResolve DeployStage = "resolve"
	StagePrepare DeployStage = "prepare"
	StageConnect DeployStage = "connect"
	StageSubmit  DeployStage = "submit"
	StageConfirm DeployStage = "confirm"
)

// DeployError is the error returned by the deploy use case. Kind is one of
// ErrArtifactNotFound or ErrDeploymentFailed.
type DeployError struct {
	Kind     error
	Contract string
	Stage    DeployStage
	Err      error
}

func (e *DeployError) Error() string {
	return fmt.Sprintf("%v: %s [%s]: %v", e.Kind, e.Contract, e.Stage, e.Err)
}

func (e *DeployError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// NewArtifactNotFound wraps err as an ErrArtifactNotFound deploy error
func NewArtifactNotFound(contract string, err error) *DeployError {
	return &DeployError{Kind: ErrArtifactNotFound, Contract: contract, Stage: StageResolve, Err: err}
}

// NewDeploymentFailed wraps err as an ErrDeploymentFailed deploy error
func NewDeploymentFailed(contract string, stage DeployStage, err error) *DeployError {
	return &DeployError{Kind: ErrDeploymentFailed, Contract: contract, Stage: stage, Err: err}
}

// ArtifactNotFoundError is returned by artifact lookups. Reason is set when an
// artifact exists but cannot be deployed.
type ArtifactNotFoundError struct {
	Ref         string
	Reason      string
	Suggestions []string
}

func (e *ArtifactNotFoundError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("artifact %q is not deployable: %s", e.Ref, e.Reason)
	}
	msg := fmt.Sprintf("no artifact named %q in build output", e.Ref)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *ArtifactNotFoundError) Is(target error) bool {
	return target == ErrArtifactNotFound
}

// AmbiguousArtifactError is returned when a bare contract name matches several artifacts
type AmbiguousArtifactError struct {
	Ref     string
	Matches []string // "source:Name"
}

func (e *AmbiguousArtifactError) Error() string {
	matches := make([]string, len(e.Matches))
	copy(matches, e.Matches)
	sort.Strings(matches)

	var suggestions []string
	for _, m := range matches {
		suggestions = append(suggestions, "  - "+m)
	}

	return fmt.Sprintf("multiple artifacts found matching %q - use path:Contract format to disambiguate:\n%s",
		e.Ref, strings.Join(suggestions, "\n"))
}

func (e *AmbiguousArtifactError) Is(target error) bool {
	return target == ErrArtifactNotFound
}
