package codegraph

import "fmt"

const nodeProps = `
  {
    "labels": "Class",
    "properties": [
      "name",
      "javaDoc",
      "code",
      "updatedAt"
    ]
  },
  {
    "labels": "Method",
    "properties": [
      "className",
      "methodName",
      "code",
      "updatedAt",
      "javaDoc"
    ]
  }
`

const relationships = `
  {
    "relationship": "HAS_METHOD",
    "source": "Class",
    "target": [
      "Method"
    ]
  },
  {
    "relationship": "CALLS",
    "source": "Method",
    "target": [
      "Method"
    ]
  }
`

// SchemaText returns the textual schema description of the code graph,
// fed to the LLM so generated Cypher stays within the known labels and
// relationship types
func SchemaText() string {
	return fmt.Sprintf(`
  This is the schema representation of the Neo4j database.
  Node properties are the following:
  %s
  Relationship point from source to target nodes
  %s
  Make sure to respect relationship types and directions
  `, nodeProps, relationships)
}

// SystemMessage returns the system prompt for Cypher query generation
func SystemMessage() string {
	return fmt.Sprintf(`
    Task: Generate Cypher queries to query a Neo4j graph database based on the provided schema definition.
    Instructions:
    Use only the provided relationship types and properties.
    Do not use any other relationship types or properties that are not provided.
    If you cannot generate a Cypher statement based on the provided schema, explain the reason to the user.
    Schema:
    %s

    Note: Do not include any explanations or apologies in your responses.
    `, SchemaText())
}
