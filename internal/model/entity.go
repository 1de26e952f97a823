package model

import (
	"fmt"
	"strings"
)

// KeyRole says how a MethodKey is being used: as the identity of a method
// the dataset owns, or as the target of an outgoing call. The two roles
// share the same shape on purpose; the role tag is what tells them apart.
type KeyRole int

const (
	// RoleSource identifies a method owned by the dataset.
	RoleSource KeyRole = iota

	// RoleReference identifies a call target, which may or may not resolve
	// to a method in the same dataset.
	RoleReference
)

// String returns the string representation of the role
func (r KeyRole) String() string {
	switch r {
	case RoleSource:
		return "source"
	case RoleReference:
		return "reference"
	default:
		return "unknown"
	}
}

// MethodKey identifies a method by its owning class and method name.
// It is the primary key for method lookups.
type MethodKey struct {
	ClassName  string `json:"className"`
	MethodName string `json:"methodName"`
}

// Validate checks that both key fields are present
func (k MethodKey) Validate() error {
	if k.ClassName == "" || k.MethodName == "" {
		return fmt.Errorf("class name and method name cannot be empty")
	}
	return nil
}

// String returns the "class.method" form used in logs and contexts
func (k MethodKey) String() string {
	return k.ClassName + "." + k.MethodName
}

// SimpleClassName returns the last dot-segment of the qualified class name
func (k MethodKey) SimpleClassName() string {
	return SimpleName(k.ClassName)
}

// MethodRef couples a method key with the role it plays.
type MethodRef struct {
	Key  MethodKey
	Role KeyRole
}

// ClassEntity represents a Java class with its metadata
type ClassEntity struct {
	ClassName string
	JavaDoc   string // empty means undocumented
	Code      string
}

// NewClassEntity builds a class entity, normalizing a whitespace-only
// javadoc to absent
func NewClassEntity(className, javaDoc, code string) (*ClassEntity, error) {
	if className == "" {
		return nil, fmt.Errorf("class name cannot be empty")
	}
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("class code cannot be empty")
	}
	return &ClassEntity{
		ClassName: className,
		JavaDoc:   normalizeDoc(javaDoc),
		Code:      code,
	}, nil
}

// HasDoc reports whether the class carries documentation
func (c *ClassEntity) HasDoc() bool {
	return c.JavaDoc != ""
}

// SimpleName returns the last dot-segment of the qualified class name
func (c *ClassEntity) SimpleName() string {
	return SimpleName(c.ClassName)
}

// MethodEntity represents a Java method with its metadata and outgoing calls
type MethodEntity struct {
	Src     MethodKey
	JavaDoc string // empty means undocumented
	Code    string
	Calls   []MethodRef // outgoing call edges, never nil
}

// NewMethodEntity builds a method entity, normalizing a whitespace-only
// javadoc to absent and guaranteeing a non-nil call list
func NewMethodEntity(src MethodKey, javaDoc, code string, calls []MethodRef) (*MethodEntity, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("method code cannot be empty")
	}
	if calls == nil {
		calls = []MethodRef{}
	}
	return &MethodEntity{
		Src:     src,
		JavaDoc: normalizeDoc(javaDoc),
		Code:    code,
		Calls:   calls,
	}, nil
}

// HasDoc reports whether the method carries documentation
func (m *MethodEntity) HasDoc() bool {
	return m.JavaDoc != ""
}

// CodeDataset owns all class and method entities for the duration of a run.
// Class names are unique within Classes and (className, methodName) pairs
// are unique within Methods; lookups use first-match semantics if that is
// ever violated.
type CodeDataset struct {
	Classes []*ClassEntity
	Methods []*MethodEntity
}

// NewCodeDataset builds a dataset from the given entity slices, tolerating
// nil slices
func NewCodeDataset(classes []*ClassEntity, methods []*MethodEntity) *CodeDataset {
	if classes == nil {
		classes = []*ClassEntity{}
	}
	if methods == nil {
		methods = []*MethodEntity{}
	}
	return &CodeDataset{Classes: classes, Methods: methods}
}

// ClassByName finds a class by its qualified name, or nil if absent
func (d *CodeDataset) ClassByName(className string) *ClassEntity {
	for _, c := range d.Classes {
		if c.ClassName == className {
			return c
		}
	}
	return nil
}

// MethodByKey finds a method by its key, or nil if absent
func (d *CodeDataset) MethodByKey(key MethodKey) *MethodEntity {
	for _, m := range d.Methods {
		if m.Src == key {
			return m
		}
	}
	return nil
}

// MethodsByClass returns all methods owned by the named class
func (d *CodeDataset) MethodsByClass(className string) []*MethodEntity {
	var methods []*MethodEntity
	for _, m := range d.Methods {
		if m.Src.ClassName == className {
			methods = append(methods, m)
		}
	}
	return methods
}

// DependenciesOf returns the outgoing call references of the keyed method.
// An unknown key yields an empty list, not an error.
func (d *CodeDataset) DependenciesOf(key MethodKey) []MethodRef {
	if m := d.MethodByKey(key); m != nil {
		return m.Calls
	}
	return nil
}

// SimpleName extracts the simple class name from a fully qualified name
func SimpleName(qualifiedName string) string {
	if idx := strings.LastIndex(qualifiedName, "."); idx >= 0 {
		return qualifiedName[idx+1:]
	}
	return qualifiedName
}

func normalizeDoc(doc string) string {
	if strings.TrimSpace(doc) == "" {
		return ""
	}
	return doc
}
