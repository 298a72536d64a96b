package dictionary

import (
	"testing"

	"github.com/thepudds/fzgen/fuzzer"
)

// Fuzz_Vtable_Chain drives a self-validating table through a fuzzer-chosen
// sequence of operations. Any disagreement with the mirrored runtime map
// panics inside Vtable.
func Fuzz_Vtable_Chain(f *testing.F) {
	f.Fuzz(func(t *testing.T, data []byte) {
		var capacity byte
		var lumpy bool
		fz := fuzzer.NewFuzzer(data)
		fz.Fill(&capacity, &lumpy)

		hashFunc := OneAtATime
		if lumpy {
			// a worse hash gives longer chains
			hashFunc = func(key string) uint32 { return OneAtATime(key) & 0x7 }
		}
		target := NewVtable(capacity, hashFunc)

		steps := []fuzzer.Step{
			{
				Name: "Fuzz_Vtable_Get",
				Func: func(k uint16) {
					target.Get(opKey(k))
				},
			},
			{
				Name: "Fuzz_Vtable_Set",
				Func: func(k uint16, undefined bool) {
					v := Text(opKey(k))
					if undefined {
						v = Undefined
					}
					target.Set(opKey(k), v)
				},
			},
			{
				Name: "Fuzz_Vtable_Unset",
				Func: func(k uint16) {
					target.Unset(opKey(k))
				},
			},
			{
				Name: "Fuzz_Vtable_SetBulk",
				Func: func(list Keys) {
					target.SetBulk(list)
				},
			},
			{
				Name: "Fuzz_Vtable_UnsetBulk",
				Func: func(list Keys) {
					target.UnsetBulk(list)
				},
			},
			{
				Name: "Fuzz_Vtable_Range",
				Func: func() {
					target.Range()
				},
			},
			{
				Name: "Fuzz_Vtable_Apply",
				Func: func(ops []Op) {
					target.Apply(ops)
				},
			},
		}

		// Execute a specific chain of steps, with the count, sequence and arguments controlled by fz.Chain
		fz.Chain(steps)

		target.Range()
		target.Destroy()
	})
}
