// Package fs abstracts the file operations behind blobstore.LocalStore so
// that tests can inject write, sync, close and rename failures.
//
// Production code uses [Default], which is [LocalFS]. Tests wrap it in a
// [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".tmp-", fs.Fault{FailOnSync: true})
//	store := blobstore.NewLocalStoreFS(dir, ffs)
package fs
