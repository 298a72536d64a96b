package dictionary

type options struct {
	hashFunc  HashFunc
	reporter  Reporter
	allocator Allocator
}

// Option configures a Table created by New.
type Option func(*options)

// WithHashFunc sets the hash used for bucket placement.
//
// If nil is passed, OneAtATime is used.
func WithHashFunc(h HashFunc) Option {
	return func(o *options) {
		if h == nil {
			h = OneAtATime
		}
		o.hashFunc = h
	}
}

// WithReporter gives the table its own failure reporter. A table with its
// own reporter never calls the process-wide one installed by SetReporter.
//
// If nil is passed, the table uses the process-wide reporter.
func WithReporter(r Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

// WithAllocator sets the Allocator charged for everything the table owns.
//
// If nil is passed, Unlimited is used.
func WithAllocator(a Allocator) Option {
	return func(o *options) {
		if a == nil {
			a = Unlimited
		}
		o.allocator = a
	}
}

func defaultOptions() options {
	return options{
		hashFunc:  OneAtATime,
		allocator: Unlimited,
	}
}
