// Package catalog loads declarative model definitions and registers them
// into a model.Registry in one build phase.
//
// A catalog document lists models by name with their fields. The same
// structure is accepted as YAML or TOML:
//
//	models:
//	  - name: Other
//	    fields:
//	      - { index: 0, label: aa, type: float64 }
//	  - name: Mine
//	    fields:
//	      - { index: 0, label: a, type: string, required: true }
//	      - { index: 1, label: b, type: "list:int32" }
//	      - { index: 3, label: d, type: "model:Other" }
//
//	[[models]]
//	name = "Other"
//	  [[models.fields]]
//	  index = 0
//	  label = "aa"
//	  type = "float64"
//
// Field types use the descriptor grammar of package schema. Fields are
// optional unless marked required. Models may
// reference each other in any order; Build rejects a catalog that leaves
// a reference unresolved and freezes the resulting registry.
package catalog
