package config

import (
	"fmt"
	"strings"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// CertificationByNameKey returns the cache key for a stored certification document
func (r *CacheKeyStruct) CertificationByNameKey(name string) string {
	return fmt.Sprintf("certification:name:%s", strings.ToLower(name))
}

// CertificationIndexKey returns the cache key for the list of certification names
func (r *CacheKeyStruct) CertificationIndexKey() string {
	return "certification:index"
}

var CacheKey = NewCacheKeyStruct()
