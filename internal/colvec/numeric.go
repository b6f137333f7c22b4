// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package colvec

import "github.com/nmandery/cellwalk/internal/tableset"

type number interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

func reduceGroups[T number](data []T, outSources [][]int, agg tableset.AggregationKind) []T {
	out := make([]T, len(outSources))
	for j, group := range outSources {
		var sum T
		for _, idx := range group {
			sum += data[idx]
		}
		if agg == tableset.AggregationAverage {
			out[j] = sum / T(len(group))
			continue
		}
		out[j] = sum
	}
	return out
}

// aggregateNumeric dispatches Sum/Average reduction across the scalar
// Vector[T] instantiations colvec ships; ok is false for any type this
// package doesn't treat as numeric (e.g. Date, Nullable), letting the
// caller fall back to first-value semantics.
func aggregateNumeric(col ColVec, outSources [][]int, agg tableset.AggregationKind) (ColVec, bool) {
	switch v := col.(type) {
	case *Vector[uint8]:
		return newVec(v.dtype, reduceGroups(v.Data, outSources, agg)), true
	case *Vector[uint16]:
		return newVec(v.dtype, reduceGroups(v.Data, outSources, agg)), true
	case *Vector[uint32]:
		return newVec(v.dtype, reduceGroups(v.Data, outSources, agg)), true
	case *Vector[uint64]:
		return newVec(v.dtype, reduceGroups(v.Data, outSources, agg)), true
	case *Vector[int8]:
		return newVec(v.dtype, reduceGroups(v.Data, outSources, agg)), true
	case *Vector[int16]:
		return newVec(v.dtype, reduceGroups(v.Data, outSources, agg)), true
	case *Vector[int32]:
		return newVec(v.dtype, reduceGroups(v.Data, outSources, agg)), true
	case *Vector[int64]:
		return newVec(v.dtype, reduceGroups(v.Data, outSources, agg)), true
	case *Vector[float32]:
		return newVec(v.dtype, reduceGroups(v.Data, outSources, agg)), true
	case *Vector[float64]:
		return newVec(v.dtype, reduceGroups(v.Data, outSources, agg)), true
	default:
		return nil, false
	}
}
