// Package types defines the catalog records shared by stanalyzer packages.
package types

import (
	"bytes"
	"encoding/json"
)

// UnknownPath is recorded as a type's file path when the front end cannot
// report where the declaration lives.
const UnknownPath = "$$UNKNOWNPATH$$"

// Kind is the declaration category of a type.
type Kind string

const (
	Class       Kind = "class"
	Interface   Kind = "interface"
	Annotation  Kind = "annotation"
	Unsupported Kind = "unsupported" // enums, records; never emitted
)

// Module identifies one discovered source root.
type Module struct {
	ID       string `json:"id"`
	RootPath string `json:"rootPath"`
	Index    int    `json:"index"`
}

// TypeRecord is one declared class, interface or annotation type.
type TypeRecord struct {
	Kind          Kind
	SimpleName    string
	QualifiedName string
	FilePath      string
	SourceText    string
	ModuleID      string
}

// typeRecordJSON is the wire form read by downstream tooling.
type typeRecordJSON struct {
	Kind          Kind   `json:"kind"`
	IsInterface   bool   `json:"isInterface"`
	IsAnnotation  bool   `json:"isAnnotation"`
	SimpleName    string `json:"simpleName"`
	QualifiedName string `json:"fullName"`
	FilePath      string `json:"filePath"`
	ModuleID      string `json:"serviceName"`
	SourceText    string `json:"content"`
}

// MarshalJSON leaves HTML characters unescaped so generic types read as
// written.
func (r TypeRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(typeRecordJSON{
		Kind:          r.Kind,
		IsInterface:   r.Kind == Interface,
		IsAnnotation:  r.Kind == Annotation,
		SimpleName:    r.SimpleName,
		QualifiedName: r.QualifiedName,
		FilePath:      r.FilePath,
		ModuleID:      r.ModuleID,
		SourceText:    r.SourceText,
	})
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (r *TypeRecord) UnmarshalJSON(data []byte) error {
	var w typeRecordJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	kind := w.Kind
	if kind == "" {
		// Catalogs written by older tools carry only the two flags.
		switch {
		case w.IsInterface:
			kind = Interface
		case w.IsAnnotation:
			kind = Annotation
		default:
			kind = Class
		}
	}
	*r = TypeRecord{
		Kind:          kind,
		SimpleName:    w.SimpleName,
		QualifiedName: w.QualifiedName,
		FilePath:      w.FilePath,
		SourceText:    w.SourceText,
		ModuleID:      w.ModuleID,
	}
	return nil
}

// MemberRecord is one method or constructor with a concrete source position.
type MemberRecord struct {
	FullName           string `json:"fullName"`
	SimpleName         string `json:"simpleName"`
	OwnerQualifiedName string `json:"parentName"`
	ModuleID           string `json:"serviceName"`
	SourceText         string `json:"content"`
}
