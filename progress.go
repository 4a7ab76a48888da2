package tieredkv

import "golang.org/x/sync/errgroup"

// runBothTierClears clears the memory and disk tiers concurrently,
// merging disk's clear progress into an overall progress count where
// the memory tier always counts as one unit of work. It returns the
// disk tier's end(canceled) flag, which is true when the disk clear
// failed (the manifest could not be opened or truncated).
func runBothTierClears(c *Cache, progress func(done, total int)) bool {
	var g errgroup.Group
	var diskCanceled bool

	g.Go(func() error {
		c.mem.RemoveAll()
		if progress != nil {
			progress(1, 2)
		}
		return nil
	})

	g.Go(func() error {
		c.disk.RemoveAllWithProgress(
			func(done, total int) {
				if progress != nil {
					progress(1+done, 1+total)
				}
			},
			func(canceled bool) {
				diskCanceled = canceled
			},
		)
		return nil
	})

	g.Wait()
	return diskCanceled
}
