//go:build !rhidebug

package rhi

import "fmt"

// ContractViolation reports caller misuse. Release builds log at error
// level and return an error wrapping ErrContractViolation; build with
// -tags rhidebug to panic instead.
func ContractViolation(format string, args ...any) error {
	err := fmt.Errorf("%w: %s", ErrContractViolation, fmt.Sprintf(format, args...))
	Logger().Error(err.Error())
	return err
}
