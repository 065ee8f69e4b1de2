// Package assetcache provides a size-bounded in-memory LRU cache for
// served asset files. The dev asset server keeps hot letterform files
// here so repeated requests skip the filesystem.
package assetcache
