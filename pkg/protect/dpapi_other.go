//go:build !windows

package protect

// NewDPAPI fails outside Windows.
func NewDPAPI() (Protector, error) {
	return nil, ErrUnsupported
}

func platformDefault() Protector {
	return None{}
}
