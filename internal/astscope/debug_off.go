//go:build !scopetree_debug

package astscope

const debugChecks = false
