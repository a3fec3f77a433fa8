// Package registry shares read-only memory mappings of stored table files.
//
// Many table views usually draw from the same file (one view per tabulated
// quantity). A Registry maps each file once per canonical path and hands out
// reference-counted Handles; the mapping is released when the last handle is.
//
//	reg := registry.New(registry.WithLogger(slog.Default()))
//	h, err := reg.Acquire("/data/DustEM.stab")
//	if err != nil { ... } // errors.Is(err, registry.ErrIO)
//	defer h.Release()
//	data := h.Bytes()
//
// Acquire and Release serialize on one mutex. Reads of mapped bytes need no
// synchronization: mappings are read-only and stay valid while referenced.
//
// A Registry is an explicit object rather than process state; every
// stabgo.Library owns one unless another is injected.
package registry
