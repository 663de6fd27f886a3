package catalog

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// OperationPrefix is the request executor path every SRV operation hangs off.
const OperationPrefix = "/v1/request-executor/srv/"

// SRV is one service request variant from the SRV matrix.
type SRV struct {
	Code               string   `json:"srv_code"`
	Name               string   `json:"srv_name"`
	EligibleRoles      []string `json:"eligible_user_roles"`
	CommandVariants    []int    `json:"command_variants"`
	SupportsFutureDate bool     `json:"supports_future_date"`
}

// OperationPath returns the request executor path for s.
func (s SRV) OperationPath() string {
	return OperationPrefix + s.Code
}

// SupportsCV reports whether cv is one of the command variants of s.
func (s SRV) SupportsCV(cv int) bool {
	return slices.Contains(s.CommandVariants, cv)
}

func (s SRV) String() string {
	return s.Code + " - " + s.Name
}

// SRV returns the matrix entry with the given code.
func (c *Catalog) SRV(code string) (SRV, error) {
	for _, s := range c.SRVs {
		if s.Code == code {
			return s, nil
		}
	}

	return SRV{}, fmt.Errorf("%w: SRV %q", ErrNotFound, code)
}

// EligibleSRVs returns the SRVs open to role, ordered by code.
func (c *Catalog) EligibleSRVs(role Role) []SRV {
	want := role.MatrixRole()

	var out []SRV

	for _, s := range c.SRVs {
		if slices.Contains(s.EligibleRoles, want) {
			out = append(out, s)
		}
	}

	slices.SortStableFunc(out, func(a, b SRV) int {
		return CompareCodes(a.Code, b.Code)
	})

	return out
}

// CompareCodes orders dotted SRV codes component by component, numerically.
// Missing or non-numeric components count as zero.
func CompareCodes(a, b string) int {
	pa, pb := strings.Split(a, "."), strings.Split(b, ".")

	for i := range max(len(pa), len(pb)) {
		va, vb := component(pa, i), component(pb, i)

		switch {
		case va < vb:
			return -1
		case va > vb:
			return 1
		}
	}

	return 0
}

func component(parts []string, i int) float64 {
	if i >= len(parts) {
		return 0
	}

	v, err := strconv.ParseFloat(parts[i], 64)
	if err != nil {
		return 0
	}

	return v
}
