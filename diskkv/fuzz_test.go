//go:build go1.18

package diskkv

import "testing"

// Fuzz Save/Get round-tripping under arbitrary key/value/filename
// inputs. Guards against panics and checks that whatever is read back
// equals whatever was written, for both inline and external storage.
func FuzzEngine_SaveGetRoundTrip(f *testing.F) {
	f.Add("k", "v", "")
	f.Add("", "v", "")
	f.Add("k", "", "")
	f.Add("αβγ", "δ", "file.bin")
	f.Add("emoji🙂", "🙂🙂", "")

	f.Fuzz(func(t *testing.T, key, value, filename string) {
		const limit = 1 << 10
		if len(key) > limit {
			key = key[:limit]
		}
		if len(value) > limit {
			value = value[:limit]
		}
		if len(filename) > 64 {
			filename = filename[:64]
		}
		// '/' and the NUL byte are unsafe inside filenames on common
		// filesystems, and "." and ".." name directories; fold them out
		// rather than rejecting the input.
		clean := make([]byte, 0, len(filename))
		for i := 0; i < len(filename); i++ {
			if filename[i] == '/' || filename[i] == 0 {
				continue
			}
			clean = append(clean, filename[i])
		}
		filename = string(clean)
		if filename == "." || filename == ".." {
			filename = ""
		}

		e, err := Open(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = e.Close() })

		ok := e.Save(key, []byte(value), filename, nil)
		if key == "" || value == "" {
			if ok {
				t.Fatalf("Save with empty key/value must fail")
			}
			return
		}
		if !ok {
			t.Fatalf("Save(%q, %q, %q) unexpectedly failed", key, value, filename)
		}

		it, found := e.Get(key)
		if !found {
			t.Fatalf("Get(%q) miss after Save", key)
		}
		if string(it.Value) != value {
			t.Fatalf("round-trip mismatch: want %q, got %q", value, it.Value)
		}

		if !e.Remove(key) {
			t.Fatalf("Remove(%q) must succeed", key)
		}
		if _, found := e.Get(key); found {
			t.Fatalf("Get(%q) must miss after Remove", key)
		}
	})
}
