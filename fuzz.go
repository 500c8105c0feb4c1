// Copyright 2026 The gosmali Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// Fuzz is the legacy oss-fuzz entrypoint the teacher's build scripts expect
// (go-fuzz's `func Fuzz([]byte) int` convention), kept alongside the native
// fuzz targets in fuzz_test.go for toolchains that still drive the old
// harness. It walks every class's class_data_item and code_item so a single
// corpus exercises the whole accessor surface, not just Open.
func Fuzz(data []byte) int {
	f, err := OpenBytes(data, &Options{Verify: VerifyAll})
	if err != nil {
		return 0
	}
	defer f.Close()

	for i := uint32(0); i < f.NumClassDefs(); i++ {
		cd, err := f.GetClassDef(i)
		if err != nil {
			continue
		}
		walkClassForFuzz(f, cd)
	}

	return 1
}

func walkClassForFuzz(f *File, cd *ClassDef) {
	acc, err := f.GetClassAccessor(cd)
	if err != nil || acc == nil {
		return
	}

	_ = acc.VisitFields(func(EncodedField) error { return nil })
	_ = acc.VisitMethods(func(m EncodedMethod) error {
		if m.CodeOff == 0 {
			return nil
		}
		ci, err := f.GetCodeItemAccessor(m.CodeOff)
		if err != nil {
			return nil
		}
		it := ci.Instructions()
		for {
			in, err := it.Next()
			if err != nil || in == nil {
				break
			}
			_ = f.PrettyInstruction(in)
		}
		if tries := ci.Tries(); tries != nil {
			for i := uint16(0); i < tries.Count(); i++ {
				item, err := tries.TryItem(i)
				if err != nil {
					continue
				}
				_, _ = tries.CatchHandlers(item.HandlerOff)
			}
		}
		return nil
	})

	if cd.ClassDataOff != 0 {
		_, _ = f.GetClassAnnotationsDirectory(cd)
	}
}
