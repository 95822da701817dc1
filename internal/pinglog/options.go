package pinglog

// Flags selects the opt-in append strategies; the binaries fill it from
// configuration.
type Flags struct {
	PartitionLocks bool
	NativeAppend   bool
}

func (f Flags) Options() []Option {
	var opts []Option
	if f.PartitionLocks {
		opts = append(opts, WithPartitionLocks())
	}
	if f.NativeAppend {
		opts = append(opts, WithNativeAppend())
	}
	return opts
}
