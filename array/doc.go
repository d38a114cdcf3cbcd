// Package array provides typed, growable, column oriented arrays.
//
// There are eight element kinds: Byte (int8), Short (int16), Char (uint16),
// Int (int32), Long (int64), Float (float32), Double (float64) and String. All of them
// are instances of the generic Typed[T] and share the kind-independent Array
// interface, so a table column can be handled without knowing its kind.
//
// # Missing values
//
// Every kind reserves one value to mean "missing": the largest value of the integer
// kinds, NaN for Float and Double and "" for String. Conversions between kinds keep
// missing values missing:
//
//	a := array.Ints(1, math.MaxInt32, 3)
//	a.GetDouble(1) // NaN
//	a.GetString(1) // ""
//
// Narrowing conversions round half up and saturate to the missing value:
//
//	b := array.NewByte(0, false)
//	b.AddDouble(1.5)   // 2
//	b.AddDouble(300)   // 127 (missing)
//
// # Errors
//
// Element accessors panic with an *IndexError on a bad index, the way slice indexing
// does. Operations taking ranges, counts or other arguments that may come from data
// return errors instead.
//
// # Persistence
//
// Arrays serialize to a counted big-endian binary form (WriteBinary), the DODS
// form used by OPeNDAP (WriteDODS) and a fixed-width random access layout (WriteRAF)
// that can be binary searched in place with RAFBinarySearch and friends.
package array
