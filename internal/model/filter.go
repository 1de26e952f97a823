package model

import "strings"

// invalidMethodNames are java.lang.Object members (and friends) that never
// get generated documentation.
var invalidMethodNames = map[string]bool{
	"equals":    true,
	"hashCode":  true,
	"toString":  true,
	"clone":     true,
	"finalize":  true,
	"wait":      true,
	"notify":    true,
	"notifyAll": true,
}

// IsValidMethod reports whether a method should receive documentation.
// Constructors (method name equals the simple class name) and the fixed
// denylist are excluded.
func IsValidMethod(m *MethodEntity) bool {
	if m.Src.SimpleClassName() == m.Src.MethodName {
		return false
	}
	return !invalidMethodNames[m.Src.MethodName]
}

// IsValidClass reports whether a class should receive documentation.
// Test classes are excluded by the Test name suffix.
func IsValidClass(c *ClassEntity) bool {
	return !strings.HasSuffix(c.ClassName, "Test")
}

// FilterInvalid returns a new dataset holding only valid entities. The
// entities themselves are shared with the input, not copied.
func FilterInvalid(ds *CodeDataset) *CodeDataset {
	classes := make([]*ClassEntity, 0, len(ds.Classes))
	for _, c := range ds.Classes {
		if IsValidClass(c) {
			classes = append(classes, c)
		}
	}

	methods := make([]*MethodEntity, 0, len(ds.Methods))
	for _, m := range ds.Methods {
		if IsValidMethod(m) {
			methods = append(methods, m)
		}
	}

	return NewCodeDataset(classes, methods)
}
