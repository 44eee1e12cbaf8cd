// Package mmap maps snapshot files read-only so blob readers can serve
// ranged reads without copying the whole file onto the heap.
//
// Unix platforms use mmap(2); Windows uses CreateFileMapping and
// MapViewOfFile. A Mapping must not be read after Close.
package mmap
