package models

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ArtifactFormat identifies the build tool layout an artifact was read from
type ArtifactFormat string

const (
	ArtifactFormatHardhat ArtifactFormat = "hardhat"
	ArtifactFormatFoundry ArtifactFormat = "foundry"
)

// Artifact is a compiled contract as produced by the external build step
type Artifact struct {
	Name         string         `json:"name"`
	SourcePath   string         `json:"sourcePath"`
	ArtifactPath string         `json:"artifactPath"`
	Format       ArtifactFormat `json:"format"`

	// Bytecode is the creation code, without constructor arguments
	Bytecode []byte   `json:"-"`
	ABI      *abi.ABI `json:"-"`
}

// FullyQualifiedName returns "source:Name"
func (a *Artifact) FullyQualifiedName() string {
	if a.SourcePath == "" {
		return a.Name
	}
	return fmt.Sprintf("%s:%s", a.SourcePath, a.Name)
}

// ConstructorInputs returns the constructor parameters declared in the ABI
func (a *Artifact) ConstructorInputs() abi.Arguments {
	if a.ABI == nil {
		return nil
	}
	return a.ABI.Constructor.Inputs
}
