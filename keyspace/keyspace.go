/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package keyspace derives backend keys for entity records and indexes.
//
// Primary keys have the form "<type>/<id>" and index keys "#idx#<type>" or
// "#idx#<type>:<partition>". Entity-type names must start with a lowercase
// letter, so a primary key can never be mistaken for an index key.
package keyspace

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// PrimarySeparator joins an entity type and an id into a primary key.
	PrimarySeparator = "/"

	// PartitionSeparator joins an entity type and a partition into an index name.
	PartitionSeparator = ":"

	// IndexPrefix is reserved for index records.
	IndexPrefix = "#idx#"
)

var entityTypePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// ValidateEntityType reports whether name can be used as an entity-type namespace.
func ValidateEntityType(name string) error {
	if !entityTypePattern.MatchString(name) {
		return fmt.Errorf("keyspace: invalid entity type %q: must match %s", name, entityTypePattern)
	}
	return nil
}

// ValidateID reports whether id can address a record.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("keyspace: id must not be empty")
	}
	return nil
}

// PrimaryKey returns the storage key of the record with the given id.
func PrimaryKey(entityType, id string) string {
	return entityType + PrimarySeparator + id
}

// IndexName returns the logical index name: the entity type for the global
// index, or "<type>:<partition>" for a partition.
func IndexName(entityType, partition string) string {
	if partition == "" {
		return entityType
	}
	return entityType + PartitionSeparator + partition
}

// IndexKey returns the storage key of an index.
func IndexKey(entityType, partition string) string {
	return IndexPrefix + IndexName(entityType, partition)
}

// ParseIndexName splits an index name into entity type and partition. The
// partition is empty for a global index.
func ParseIndexName(name string) (entityType, partition string, err error) {
	entityType, partition, _ = strings.Cut(name, PartitionSeparator)
	if err := ValidateEntityType(entityType); err != nil {
		return "", "", err
	}
	if strings.Contains(name, PartitionSeparator) && partition == "" {
		return "", "", fmt.Errorf("keyspace: index name %q has an empty partition", name)
	}
	return entityType, partition, nil
}

// IsIndexKey reports whether key lives in the index namespace.
func IsIndexKey(key string) bool {
	return strings.HasPrefix(key, IndexPrefix)
}
