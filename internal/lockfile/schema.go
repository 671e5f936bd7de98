package lockfile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/lock.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
	currentVersion = semver.MustParse(Version)
)

// ErrUnsupportedVersion is returned for lock files written by a newer,
// incompatible major version. Such files are never overwritten.
var ErrUnsupportedVersion = errors.New("unsupported lock file version")

// SchemaError lists the ways a document violates the lock schema.
type SchemaError struct {
	Issues []string
}

func (e *SchemaError) Error() string {
	return "lock file does not match schema: " + strings.Join(e.Issues, "; ")
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("lock.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("lock.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Decode parses and validates a lock document. It returns a *SchemaError
// for documents that are JSON but the wrong shape, and wraps
// ErrUnsupportedVersion for newer major versions.
func Decode(data []byte) (*LockFile, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing lock JSON: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return nil, fmt.Errorf("validating lock file: %w", err)
		}
		return nil, &SchemaError{Issues: collectIssues(ve)}
	}

	var lf LockFile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("decoding lock file: %w", err)
	}
	if err := checkVersion(lf.Version); err != nil {
		return nil, err
	}

	lf.normalize()
	return &lf, nil
}

// checkVersion accepts any version with the current major.
func checkVersion(raw string) error {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("lock version %q: %w", raw, err)
	}
	if v.Major() > currentVersion.Major() {
		return fmt.Errorf("%w %s (this build reads %d.x)", ErrUnsupportedVersion, raw, currentVersion.Major())
	}
	if v.Major() < currentVersion.Major() {
		return fmt.Errorf("lock version %s predates %d.x", raw, currentVersion.Major())
	}
	return nil
}

// collectIssues flattens the validation error tree into leaf messages.
func collectIssues(ve *jsonschema.ValidationError) []string {
	var issues []string
	seen := make(map[string]bool)

	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, cause := range e.Causes {
				walk(cause)
			}
			return
		}

		msg := e.Error()
		if e.ErrorKind != nil {
			msg = e.ErrorKind.LocalizedString(printer)
		}
		path := "/" + strings.Join(e.InstanceLocation, "/")
		issue := path + ": " + msg
		if !seen[issue] {
			seen[issue] = true
			issues = append(issues, issue)
		}
	}
	walk(ve)
	return issues
}
