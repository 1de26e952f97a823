package model

import (
	"fmt"
	"strings"
)

// ClassUpdate is the transfer object for one generated class comment.
// It is what the generation run persists per class and what the merge
// reads back.
type ClassUpdate struct {
	ClassName string `json:"className"`
	JavaDoc   string `json:"javaDoc"`
}

// Validate checks that the update carries a key and a non-blank comment
func (u ClassUpdate) Validate() error {
	if u.ClassName == "" {
		return fmt.Errorf("class update missing className")
	}
	if strings.TrimSpace(u.JavaDoc) == "" {
		return fmt.Errorf("class update for %s has blank javaDoc", u.ClassName)
	}
	return nil
}

// Apply assigns the update's documentation onto the matching live class.
// Returns true only when the class exists and had no documentation yet
// (first-writer-wins); anything else is silently ignored.
func (u ClassUpdate) Apply(ds *CodeDataset) bool {
	existing := ds.ClassByName(u.ClassName)
	if existing == nil || existing.HasDoc() {
		return false
	}
	existing.JavaDoc = u.JavaDoc
	return true
}

// MethodUpdate is the transfer object for one generated method comment.
type MethodUpdate struct {
	Src     MethodKey `json:"src"`
	JavaDoc string    `json:"javaDoc"`
}

// Validate checks that the update carries a full key and a non-blank comment
func (u MethodUpdate) Validate() error {
	if err := u.Src.Validate(); err != nil {
		return fmt.Errorf("method update: %w", err)
	}
	if strings.TrimSpace(u.JavaDoc) == "" {
		return fmt.Errorf("method update for %s has blank javaDoc", u.Src)
	}
	return nil
}

// Apply assigns the update's documentation onto the matching live method.
// Returns true only when the method exists and had no documentation yet.
func (u MethodUpdate) Apply(ds *CodeDataset) bool {
	existing := ds.MethodByKey(u.Src)
	if existing == nil || existing.HasDoc() {
		return false
	}
	existing.JavaDoc = u.JavaDoc
	return true
}
