package ports

// GovernanceMetrics records governance decisions. Implementations must be safe for concurrent use.
type GovernanceMetrics interface {
	ObserveLimitDecision(roleName string, allowed bool)
	ObserveAllocation(partition string)
	ObserveSweep(removed int)
}
