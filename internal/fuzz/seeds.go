package fuzztests

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
	maxFuzzInput = 1 << 16  // 64 KiB
)

// builtinSeeds cover every construct that opens a scope.
var builtinSeeds = []string{
	"",
	"func f(y: Int?) {\n    guard let x = y else { return }\n    print(x)\n}\n",
	"let a = 1, b = a\nvar c: Int { get { a } set { print(newValue) } }\n",
	"struct S<T> { var v: T\n    func m(a: T) -> T { if let b = a { return b } else { return a } } }\n",
	"extension S { func n() { for i in items where i > 0 { use(i) } } }\n",
	"class C { init(x: Int) { self.x = x } deinit { } subscript(i: Int) -> Int { i } }\n",
	"enum E { case a(Int), b }\nswitch e { case .a(let v): use(v)\ndefault: break }\n",
	"do { try run() } catch let err { report(err) }\n",
	"let f = { [weak self] (x: Int) in x + 1 }\nlet g = { $0 * 2 }\n",
	"while let n = next() { repeat { n -= 1 } while n > 0 }\n",
	"#if DEBUG\nfunc debug() {}\n#elseif TEST\nfunc test() {}\n#else\nfunc release() {}\n#endif\n",
	"func outer() {\n    defer { close() }\n    guard let a = x, let b = a else { return }\n    guard case .some(let c) = b else { fatal() }\n    use(a, b, c)\n}\n",
	"func f() {\n    if let x = y {\n", // незакрытые скобки
	"}}} ) ] let = in guard else",
	// записи без шаблона
	"let!x\n",
	"let = 1\n",
	"var a, ,b\n",
	"let x = 1, !\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
	addReadmeSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.swift файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".swift" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func addReadmeSeeds(f *testing.F) {
	readme := filepath.Join("..", "..", "README.md")
	// #nosec G304 -- path is a fixed repository location
	data, err := os.ReadFile(readme)
	if err != nil {
		return
	}
	lines := bytes.Split(data, []byte{'\n'})
	var block [][]byte
	inBlock := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(string(line))
		if strings.HasPrefix(trimmed, "```swift") {
			inBlock = true
			block = block[:0]
			continue
		}
		if strings.HasPrefix(trimmed, "```") {
			if inBlock {
				snippet := clampSeed(bytes.Join(block, []byte{'\n'}))
				if len(snippet) > 0 {
					f.Add(snippet)
				}
			}
			inBlock = false
			block = block[:0]
			continue
		}
		if inBlock {
			// сохраняем оригинальные строки, включая отступы
			block = append(block, line)
		}
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
