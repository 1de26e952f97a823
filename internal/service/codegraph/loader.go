package codegraph

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/javagraph/docgen/internal/model"
)

// RepositoryBuilder mirrors a code dataset into the graph database:
// Class and Method nodes, HAS_METHOD ownership, and CALLS edges.
// All writes are MERGE based so re-running a load never duplicates nodes.
type RepositoryBuilder struct {
	db     GraphDatabase
	logger *zap.Logger
}

// NewRepositoryBuilder creates a repository builder on top of a graph database
func NewRepositoryBuilder(db GraphDatabase, logger *zap.Logger) *RepositoryBuilder {
	return &RepositoryBuilder{db: db, logger: logger}
}

// SaveCodeData writes the complete dataset to the graph: constraints
// first, then classes, then methods, then call edges
func (b *RepositoryBuilder) SaveCodeData(ctx context.Context, ds *model.CodeDataset) error {
	b.createConstraints(ctx)

	for _, class := range ds.Classes {
		if err := b.saveClass(ctx, class); err != nil {
			return err
		}
	}

	for _, method := range ds.Methods {
		if err := b.saveMethod(ctx, method); err != nil {
			return err
		}
	}

	for _, method := range ds.Methods {
		if err := b.saveCallEdges(ctx, method); err != nil {
			return err
		}
	}

	b.logger.Info("Code data saved to graph",
		zap.Int("classes", len(ds.Classes)),
		zap.Int("methods", len(ds.Methods)))
	return nil
}

// createConstraints creates uniqueness constraints for the node keys.
// Failures are logged and ignored so loads work against servers where
// the constraints already exist in an older form.
func (b *RepositoryBuilder) createConstraints(ctx context.Context) {
	constraints := []string{
		"CREATE CONSTRAINT class_name_unique IF NOT EXISTS FOR (c:Class) REQUIRE c.name IS UNIQUE",
		"CREATE CONSTRAINT method_unique IF NOT EXISTS FOR (m:Method) REQUIRE (m.className, m.methodName) IS UNIQUE",
	}

	for _, constraint := range constraints {
		if _, err := b.db.ExecuteWrite(ctx, constraint, nil); err != nil {
			b.logger.Warn("Constraint creation warning", zap.Error(err))
		}
	}
}

func (b *RepositoryBuilder) saveClass(ctx context.Context, class *model.ClassEntity) error {
	query := `
        MERGE (c:Class {name: $class_name})
        SET c.javaDoc = $java_doc,
            c.code = $code,
            c.updatedAt = datetime()
        `

	params := map[string]any{
		"class_name": class.ClassName,
		"java_doc":   class.JavaDoc,
		"code":       class.Code,
	}

	if _, err := b.db.ExecuteWrite(ctx, query, params); err != nil {
		return fmt.Errorf("failed to save class %s: %w", class.ClassName, err)
	}
	return nil
}

func (b *RepositoryBuilder) saveMethod(ctx context.Context, method *model.MethodEntity) error {
	query := `
        MERGE (m:Method {className: $class_name, methodName: $method_name})
        SET m.javaDoc = $java_doc,
            m.code = $code,
            m.updatedAt = datetime()
        WITH m
        MATCH (c:Class {name: $class_name})
        MERGE (c)-[:HAS_METHOD]->(m)
        `

	params := map[string]any{
		"class_name":  method.Src.ClassName,
		"method_name": method.Src.MethodName,
		"java_doc":    method.JavaDoc,
		"code":        method.Code,
	}

	if _, err := b.db.ExecuteWrite(ctx, query, params); err != nil {
		return fmt.Errorf("failed to save method %s: %w", method.Src, err)
	}
	return nil
}

// saveCallEdges links a method to its callees. Callee nodes are merged
// so edges to methods outside the dataset still resolve.
func (b *RepositoryBuilder) saveCallEdges(ctx context.Context, method *model.MethodEntity) error {
	if len(method.Calls) == 0 {
		return nil
	}

	query := `
        MATCH (source:Method {className: $src_class, methodName: $src_method})
        MERGE (target:Method {className: $dst_class, methodName: $dst_method})
        MERGE (source)-[:CALLS]->(target)
        `

	for _, call := range method.Calls {
		params := map[string]any{
			"src_class":  method.Src.ClassName,
			"src_method": method.Src.MethodName,
			"dst_class":  call.Key.ClassName,
			"dst_method": call.Key.MethodName,
		}
		if _, err := b.db.ExecuteWrite(ctx, query, params); err != nil {
			return fmt.Errorf("failed to save call edge %s -> %s: %w", method.Src, call.Key, err)
		}
	}
	return nil
}
