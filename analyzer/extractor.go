// Package analyzer turns the declarations of a multi-module Java tree into
// type and member catalogs.
package analyzer

import (
	"errors"
	"fmt"

	"github.com/arjunmahishi/stanalyzer/logging"
	"github.com/arjunmahishi/stanalyzer/types"
)

var (
	// ErrUnsupported marks declarations that are neither class, interface
	// nor annotation type.
	ErrUnsupported = errors.New("unsupported declaration")

	// ErrDeclaration marks a declaration that failed while being read.
	ErrDeclaration = errors.New("declaration failed")
)

// Catalog holds the records extracted from one module. Both slices are
// non-nil.
type Catalog struct {
	Types   []types.TypeRecord   `json:"types"`
	Members []types.MemberRecord `json:"methods"`
}

func newCatalog() Catalog {
	return Catalog{
		Types:   []types.TypeRecord{},
		Members: []types.MemberRecord{},
	}
}

// Extractor builds the catalog of one module from a Source.
type Extractor struct {
	source Source
	log    logging.Logger
}

func NewExtractor(source Source, logger logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Extractor{source: source, log: logger}
}

// Extract lists the declarations under moduleRoot and records each class,
// interface and annotation type with its members, tagged with moduleID. A
// declaration that cannot be read is logged and skipped; so is a second
// declaration of a qualified name already recorded for the module.
func (e *Extractor) Extract(moduleRoot, moduleID string) (Catalog, error) {
	cat := newCatalog()

	decls, err := e.source.ListTypes(moduleRoot)
	if err != nil {
		return cat, fmt.Errorf("list types in %s: %w", moduleRoot, err)
	}

	seen := make(map[string]struct{}, len(decls))
	for _, d := range decls {
		rec, members, err := e.extractType(d, moduleID)
		if err != nil {
			e.log.Debug("skipping declaration", "module", moduleID, "error", err)
			continue
		}
		if _, dup := seen[rec.QualifiedName]; dup {
			e.log.Debug("skipping duplicate declaration", "module", moduleID, "type", rec.QualifiedName, "path", rec.FilePath)
			continue
		}
		seen[rec.QualifiedName] = struct{}{}

		cat.Types = append(cat.Types, rec)
		cat.Members = append(cat.Members, members...)
	}

	e.log.Debug("module extracted", "module", moduleID, "types", len(cat.Types), "members", len(cat.Members))
	return cat, nil
}

func (e *Extractor) extractType(d TypeDecl, moduleID string) (rec types.TypeRecord, members []types.MemberRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrDeclaration, r)
		}
	}()

	kind := d.Kind()
	switch kind {
	case types.Interface, types.Class, types.Annotation:
	default:
		return rec, nil, fmt.Errorf("%w: %s (%s) at %s", ErrUnsupported, d.QualifiedName(), kind, d.Position())
	}

	qn := d.QualifiedName()
	rec = types.TypeRecord{
		Kind:          kind,
		SimpleName:    d.SimpleName(),
		QualifiedName: qn,
		SourceText:    d.SourceText(),
		ModuleID:      moduleID,
	}
	path, ok := d.FilePath()
	if !ok {
		e.log.Debug("type has no file path", "module", moduleID, "type", qn)
		path = types.UnknownPath
	}
	rec.FilePath = path

	dropped := 0
	for _, m := range d.AllMethods() {
		if !m.HasValidPosition() {
			dropped++
			continue
		}
		members = append(members, types.MemberRecord{
			FullName:           qn + "::" + m.Signature(),
			SimpleName:         m.Name(),
			OwnerQualifiedName: qn,
			ModuleID:           moduleID,
			SourceText:         m.SourceText(),
		})
	}

	if kind == types.Class {
		for _, c := range d.Constructors() {
			if !c.HasValidPosition() {
				dropped++
				continue
			}
			members = append(members, types.MemberRecord{
				FullName:           qn + "::" + c.Signature(),
				SimpleName:         rec.SimpleName,
				OwnerQualifiedName: qn,
				ModuleID:           moduleID,
				SourceText:         c.SourceText(),
			})
		}
	}

	if dropped > 0 {
		e.log.Debug("dropped members without source", "module", moduleID, "type", qn, "count", dropped)
	}
	return rec, members, nil
}
