package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/deployer/internal/domain"
	"github.com/trebuchet-org/deployer/internal/domain/config"
	"github.com/trebuchet-org/deployer/internal/domain/models"
)

const (
	HardhatArtifactsDir = "artifacts"
	FoundryOutDir       = "out"

	maxSuggestions = 3
)

// artifactEntry is an indexed artifact file; bytecode and ABI are decoded on lookup
type artifactEntry struct {
	name   string
	source string
	path   string // relative to the project root
	format models.ArtifactFormat
}

func (e *artifactEntry) key() string {
	return e.source + ":" + e.name
}

// rawArtifact covers both the Hardhat and the Foundry artifact JSON layout
type rawArtifact struct {
	Format       string          `json:"_format"`
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     bytecodeField   `json:"bytecode"`
	Metadata     json.RawMessage `json:"metadata"`
}

// bytecodeField accepts a hex string (Hardhat) or {"object": "0x..."} (Foundry)
type bytecodeField string

func (b *bytecodeField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*b = bytecodeField(s)
		return nil
	}

	var obj struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*b = bytecodeField(obj.Object)
	return nil
}

type foundryMetadata struct {
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
}

// ArtifactRepository reads compiled contracts from Hardhat and Foundry build output
type ArtifactRepository struct {
	projectRoot string
	log         *slog.Logger

	mu      sync.RWMutex
	indexed bool
	entries []*artifactEntry
	byName  map[string][]*artifactEntry
}

// NewArtifactRepository creates a new artifact repository. Build output is indexed on first use.
func NewArtifactRepository(cfg *config.RuntimeConfig, log *slog.Logger) *ArtifactRepository {
	return &ArtifactRepository{
		projectRoot: cfg.ProjectRoot,
		log:         log.With("component", "ArtifactRepository"),
	}
}

// FindArtifact resolves "Name" or "path/File.sol:Name" to a deployable artifact
func (r *ArtifactRepository) FindArtifact(ctx context.Context, ref string) (*models.Artifact, error) {
	if err := r.ensureIndexed(); err != nil {
		return nil, err
	}

	entry, err := r.lookup(ref)
	if err != nil {
		return nil, err
	}

	artifact, reason, err := r.load(entry)
	if err != nil {
		return nil, err
	}
	if reason != "" {
		return nil, &domain.ArtifactNotFoundError{Ref: ref, Reason: reason}
	}
	return artifact, nil
}

func (r *ArtifactRepository) lookup(ref string) (*artifactEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, pathHint := ref, ""
	if idx := strings.LastIndex(ref, ":"); idx >= 0 {
		pathHint, name = ref[:idx], ref[idx+1:]
	}

	candidates := r.byName[name]
	if pathHint != "" {
		candidates = lo.Filter(candidates, func(e *artifactEntry, _ int) bool {
			return e.source == pathHint || strings.HasSuffix(e.source, "/"+pathHint)
		})
	}

	switch len(candidates) {
	case 0:
		return nil, &domain.ArtifactNotFoundError{Ref: ref, Suggestions: r.suggest(name)}
	case 1:
		return candidates[0], nil
	default:
		return nil, &domain.AmbiguousArtifactError{
			Ref:     ref,
			Matches: lo.Map(candidates, func(e *artifactEntry, _ int) string { return e.key() }),
		}
	}
}

// suggest ranks known contract names by fuzzy similarity to name
func (r *ArtifactRepository) suggest(name string) []string {
	names := lo.Keys(r.byName)
	sort.Strings(names)

	suggestions := make([]string, 0, maxSuggestions)
	for _, m := range fuzzy.Find(name, names) {
		if len(suggestions) == maxSuggestions {
			return suggestions
		}
		suggestions = append(suggestions, names[m.Index])
	}

	// fuzzy only matches subsequences; fall back to a shared prefix for typos
	if len(suggestions) == 0 && len(name) >= 3 {
		prefix := strings.ToLower(name[:3])
		for _, n := range names {
			if len(suggestions) < maxSuggestions && strings.HasPrefix(strings.ToLower(n), prefix) {
				suggestions = append(suggestions, n)
			}
		}
	}
	return suggestions
}

func (r *ArtifactRepository) ensureIndexed() error {
	r.mu.RLock()
	indexed := r.indexed
	r.mu.RUnlock()
	if indexed {
		return nil
	}
	return r.Index()
}

// Index scans the build output directories. Hardhat artifacts come before Foundry ones.
func (r *ArtifactRepository) Index() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	r.byName = make(map[string][]*artifactEntry)
	seen := make(map[string]bool)

	found := false
	for _, dir := range []string{HardhatArtifactsDir, FoundryOutDir} {
		root := filepath.Join(r.projectRoot, dir)
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			continue
		}
		found = true

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == "build-info" || d.Name() == "cache" {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
				return nil
			}

			entry, ok := r.indexFile(path)
			if !ok || seen[entry.key()] {
				return nil
			}
			seen[entry.key()] = true
			r.entries = append(r.entries, entry)
			r.byName[entry.name] = append(r.byName[entry.name], entry)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", dir, err)
		}
	}

	if !found {
		r.log.Warn("no build output found; compile the contracts first", "root", r.projectRoot)
	}
	r.log.Debug("indexed artifacts", "count", len(r.entries))
	r.indexed = true
	return nil
}

// indexFile reads the identifying fields of an artifact file. Files that are not
// contract artifacts are skipped.
func (r *ArtifactRepository) indexFile(path string) (*artifactEntry, bool) {
	raw, err := readRawArtifact(path)
	if err != nil || raw.ABI == nil {
		return nil, false
	}

	relPath, err := filepath.Rel(r.projectRoot, path)
	if err != nil {
		relPath = path
	}

	entry := &artifactEntry{path: relPath}
	if raw.ContractName != "" {
		entry.format = models.ArtifactFormatHardhat
		entry.name = raw.ContractName
		entry.source = raw.SourceName
		return entry, true
	}

	entry.format = models.ArtifactFormatFoundry
	var meta foundryMetadata
	if len(raw.Metadata) > 0 && json.Unmarshal(raw.Metadata, &meta) == nil {
		for source, contract := range meta.Settings.CompilationTarget {
			entry.source = source
			entry.name = contract
			break // only one entry
		}
	}
	if entry.name == "" {
		// out/<File>.sol/<Name>.json
		entry.name = strings.TrimSuffix(filepath.Base(path), ".json")
		entry.source = filepath.Base(filepath.Dir(path))
	}
	return entry, true
}

// load decodes an indexed artifact. reason is set when the artifact cannot be deployed.
func (r *ArtifactRepository) load(entry *artifactEntry) (*models.Artifact, string, error) {
	raw, err := readRawArtifact(filepath.Join(r.projectRoot, entry.path))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read artifact %s: %w", entry.path, err)
	}

	parsed, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse ABI in %s: %w", entry.path, err)
	}

	artifact := &models.Artifact{
		Name:         entry.name,
		SourcePath:   entry.source,
		ArtifactPath: entry.path,
		Format:       entry.format,
		ABI:          &parsed,
	}

	code := string(raw.Bytecode)
	switch {
	case strings.Contains(code, "__"):
		return artifact, "bytecode contains unlinked library placeholders", nil
	case len(common.FromHex(code)) == 0:
		return artifact, "bytecode is empty (interface or abstract contract)", nil
	}
	artifact.Bytecode = common.FromHex(code)
	return artifact, "", nil
}

func readRawArtifact(path string) (*rawArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return &raw, nil
}
