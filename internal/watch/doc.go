// Package watch reports template and configuration changes on disk.
//
// A Watcher wraps fsnotify, registers directories recursively and delivers
// debounced, de-duplicated batches of Change values. The serve command uses
// it to rebuild the template set without restarting.
//
//	w, err := watch.New(watch.Config{Paths: []string{"templates"}})
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//	go w.Run(ctx, func(changes []watch.Change) {
//	    reload()
//	})
package watch
