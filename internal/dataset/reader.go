package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/javagraph/docgen/internal/model"
)

// Reader loads the structural extraction of a Java codebase from its
// newline-delimited JSON files. Structural errors are fatal: a dataset
// with a malformed line is not trusted.
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a dataset reader
func NewReader(logger *zap.Logger) *Reader {
	return &Reader{logger: logger}
}

type classRecord struct {
	ClassName string `json:"className"`
	JavaDoc   string `json:"javaDoc"`
	Code      string `json:"code"`
}

type methodRecord struct {
	Src        model.MethodKey   `json:"src"`
	JavaDoc    string            `json:"javaDoc"`
	Code       string            `json:"code"`
	DstMethods []model.MethodKey `json:"dstMethods"`
}

// ReadClasses reads one class entity per line from path
func (r *Reader) ReadClasses(path string) ([]*model.ClassEntity, error) {
	r.logger.Info("Reading classes from file", zap.String("file", path))

	var classes []*model.ClassEntity
	err := r.readLines(path, func(line []byte, lineNo int) error {
		var record classRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return fmt.Errorf("invalid JSON on line %d: %w", lineNo, err)
		}
		class, err := model.NewClassEntity(record.ClassName, record.JavaDoc, record.Code)
		if err != nil {
			return fmt.Errorf("invalid class on line %d: %w", lineNo, err)
		}
		classes = append(classes, class)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read classes file %s: %w", path, err)
	}

	r.logger.Info("Successfully read classes", zap.Int("count", len(classes)))
	return classes, nil
}

// ReadMethods reads one method entity per line from path
func (r *Reader) ReadMethods(path string) ([]*model.MethodEntity, error) {
	r.logger.Info("Reading methods from file", zap.String("file", path))

	var methods []*model.MethodEntity
	err := r.readLines(path, func(line []byte, lineNo int) error {
		var record methodRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return fmt.Errorf("invalid JSON on line %d: %w", lineNo, err)
		}
		calls := make([]model.MethodRef, 0, len(record.DstMethods))
		for _, dst := range record.DstMethods {
			calls = append(calls, model.MethodRef{Key: dst, Role: model.RoleReference})
		}
		method, err := model.NewMethodEntity(record.Src, record.JavaDoc, record.Code, calls)
		if err != nil {
			return fmt.Errorf("invalid method on line %d: %w", lineNo, err)
		}
		methods = append(methods, method)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read methods file %s: %w", path, err)
	}

	r.logger.Info("Successfully read methods", zap.Int("count", len(methods)))
	return methods, nil
}

// ReadDataset reads the classes and methods files into one dataset
func (r *Reader) ReadDataset(classesFile, methodsFile string) (*model.CodeDataset, error) {
	classes, err := r.ReadClasses(classesFile)
	if err != nil {
		return nil, err
	}
	methods, err := r.ReadMethods(methodsFile)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Successfully loaded code data",
		zap.Int("classes", len(classes)),
		zap.Int("methods", len(methods)))
	return model.NewCodeDataset(classes, methods), nil
}

// readLines invokes parse on every non-blank line of path. The first
// parse error aborts the read.
func (r *Reader) readLines(path string, parse func(line []byte, lineNo int) error) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	// entity code blocks can be large
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := parse([]byte(line), lineNo); err != nil {
			return err
		}
	}
	return scanner.Err()
}
