// Package catalog compiles filter sets authored in CUE into filter
// descriptors.
//
// A catalog is a directory of CUE files declaring filter sets:
//
//	filterset: accidents: {
//		label: "الحوادث المرورية"
//		filters: [
//			{key: "severity", label: "الخطورة", type: "select", default: "all",
//				options: [{value: "مميت", label: "مميت"}]},
//			{key: "minFatalities", label: "الوفيات", type: "custom",
//				predicate: {name: "atLeast", field: "fatalities"}},
//		]
//	}
//
// Files are unified with the embedded schema before compilation, so shape
// errors carry CUE positions. Custom predicates are resolved by name through
// a Registry when the filter set is compiled.
//
// The package also embeds the dashboard's built-in filter sets; see Presets.
package catalog
