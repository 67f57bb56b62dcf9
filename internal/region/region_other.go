//go:build !unix

package region

// NewMapped backs a Region with a plain Go-managed byte slice on
// platforms without an mmap(2)-style syscall (mirrors how the teacher
// splits zero-copy I/O by platform, e.g. zerocopy_unix_file.go versus
// zerocopy_windows_file.go).
func NewMapped(size int) (*Region, error) {
	if err := validateSize(size); err != nil {
		return nil, err
	}

	return &Region{buf: make([]byte, size)}, nil
}
