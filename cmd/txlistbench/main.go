// Command txlistbench drives a tlist.List under concurrent transactions
// and reports how many committed versus aborted, exercising the commit
// protocol and structure lock under real goroutine concurrency rather
// than a single-goroutine unit test.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/avinassh/txlist/stm"
	"github.com/avinassh/txlist/tlist"
)

func main() {
	workers := flag.Int("workers", 8, "number of concurrent goroutines")
	txPerWorker := flag.Int("tx", 2000, "transactions run per goroutine")
	keyspace := flag.Int("keys", 64, "number of distinct int keys contended over")
	flag.Parse()

	rt := stm.NewRuntime()
	list := tlist.NewOrdered[int](rt, tlist.WithDuplicates[int](false))

	var committed, aborted atomic.Int64
	var g errgroup.Group
	for w := 0; w < *workers; w++ {
		w := w
		g.Go(func() error {
			r := rand.New(rand.NewSource(int64(w) + 1))
			for i := 0; i < *txPerWorker; i++ {
				key := r.Intn(*keyspace)
				for {
					done, wasAborted, err := rt.TryOnce(func(tx *stm.Tx) error {
						if r.Intn(2) == 0 {
							list.TransInsert(tx, key)
						} else {
							list.TransDelete(tx, key)
						}
						return nil
					})
					if wasAborted {
						aborted.Add(1)
						continue
					}
					if done {
						if err != nil {
							return err
						}
						committed.Add(1)
						break
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("committed=%d aborted=%d final_size=%d\n", committed.Load(), aborted.Load(), list.Size())
}
