package broadcast

// Option configures a message at publish time.
type Option func(*publishOptions)

type publishOptions struct {
	label     string
	onConfirm func()
	onDismiss func()
}

// WithLabel attaches a human-readable label. Two messages of the same kind and
// label are considered the same message.
func WithLabel(label string) Option {
	return func(o *publishOptions) {
		o.label = label
	}
}

// WithOnConfirm attaches an action run once when the message is confirmed.
func WithOnConfirm(fn func()) Option {
	return func(o *publishOptions) {
		o.onConfirm = fn
	}
}

// WithOnDismiss attaches an action run once when the message is dismissed.
func WithOnDismiss(fn func()) Option {
	return func(o *publishOptions) {
		o.onDismiss = fn
	}
}
