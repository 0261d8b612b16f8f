package ports

// Watcher monitors a catalog directory for shape file changes and triggers a
// new generator run. The adapter (fsnotify) must filter out non-catalog files
// (editor swap files, hidden files) before invoking onChange. Only one Watch
// call should be active at a time.
type Watcher interface {
	// Watch starts monitoring dir (not its subdirectories). onChange is called with
	// the absolute path of each changed file. The callback may be invoked from
	// any goroutine. Returns an error if the directory doesn't exist or
	// permissions are insufficient.
	Watch(dir string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
