//go:build unix

package mmap

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// osMap maps size bytes of f read-only and shared, so that every process
// mapping the same table shares its page cache.
func osMap(f *os.File, size int) ([]byte, func([]byte) error, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	return data, unix.Munmap, nil
}

var advice = map[AccessPattern]int{
	AccessDefault:    unix.MADV_NORMAL,
	AccessSequential: unix.MADV_SEQUENTIAL,
	AccessRandom:     unix.MADV_RANDOM,
	AccessWillNeed:   unix.MADV_WILLNEED,
	AccessDontNeed:   unix.MADV_DONTNEED,
}

func osAdvise(data []byte, pattern AccessPattern) error {
	if len(data) == 0 {
		return nil
	}
	adv, ok := advice[pattern]
	if !ok {
		adv = unix.MADV_NORMAL
	}
	// Hints are advisory; EINVAL from unaligned or unsupported advice is ignored.
	if err := unix.Madvise(data, adv); err != nil && !errors.Is(err, unix.EINVAL) {
		return err
	}
	return nil
}
