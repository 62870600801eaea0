// Package instancepool amortizes the cost of expensive instances by recycling
// them instead of destroying and recreating them.
//
// A Pool owns a LIFO free list of parked instances. Obtain pops the most
// recently recycled instance, or asks the Factory for new ones when the list
// is empty; Recycle pushes an instance back unless the list already holds
// AvailableMaximum instances. Hooks let the caller activate, deactivate and
// reset instances without the pool knowing what an instance is.
//
//	p, err := instancepool.New[*Sprite, Prefab](prefab, instancepool.FactoryFunc[*Sprite, Prefab](spawn),
//	    instancepool.Hooks[*Sprite]{
//	        OnAllocate: (*Sprite).Hide,
//	        OnObtain:   (*Sprite).Show,
//	        OnRecycle:  (*Sprite).Reset,
//	    },
//	    instancepool.WithInitialSize(15),
//	    instancepool.WithGrowth(5),
//	)
//
// Exhaustion and over-recycling are reported to an Observer as Anomaly values
// and never change the outcome of the call. Package pkg/observe provides zap,
// Prometheus and OpenTelemetry observers.
package instancepool
