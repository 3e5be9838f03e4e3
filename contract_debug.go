//go:build rhidebug

package rhi

import "fmt"

// ContractViolation reports caller misuse. Debug builds panic.
func ContractViolation(format string, args ...any) error {
	panic(fmt.Errorf("%w: %s", ErrContractViolation, fmt.Sprintf(format, args...)))
}
