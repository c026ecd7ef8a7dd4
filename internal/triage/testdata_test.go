package triage

// Captured interpreter output used across the package tests.

const joinedThreadStream = "   Compiling playground v0.0.1 (/playground)\n" +
	"    Finished dev [unoptimized + debuginfo] target(s) in 0.29s\n" +
	"     Running `/playground/.rustup/toolchains/nightly-x86_64-unknown-linux-gnu/bin/cargo-miri runner target/miri/x86_64-unknown-linux-gnu/debug/playground`\n" +
	joinedThreadUnit + "\n" +
	"\n" +
	"note: some details are omitted, run with `MIRIFLAGS=-Zmiri-backtrace=full` for a verbose backtrace\n" +
	"\n" +
	"error: aborting due to previous error\n"

const joinedThreadUnit = "error: Undefined Behavior: trying to join an already joined thread\n" +
	"  --> src/main.rs:14:20\n" +
	"   |\n" +
	"14 |         assert_eq!(libc::pthread_join(native, ptr::null_mut()), 0); //~ ERROR: Undefined Behavior: trying to join an already joined thread\n" +
	"   |                    ^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^^ trying to join an already joined thread\n" +
	"   |\n" +
	"   = help: this indicates a bug in the program: it performed an invalid operation, and caused Undefined Behavior\n" +
	"   = help: see https://doc.rust-lang.org/nightly/reference/behavior-considered-undefined.html for further information\n" +
	"   = note: BACKTRACE:\n" +
	"   = note: inside `main` at src/main.rs:14:20: 14:63"

const useAfterFreeDoubleFree = "error: Undefined Behavior: pointer to alloc1234 was dereferenced after this allocation got freed\n" +
	"  --> /home/dev/.cargo/registry/src/libc-0.2.147/src/unix/mod.rs:16:14\n" +
	"   |\n" +
	"16 |     unsafe { libc::free(buf) };\n" +
	"   |              ^^^^^^^^^^^^^^^ pointer to alloc1234 was dereferenced after this allocation got freed\n" +
	"   = note: inside `tests::double_free` at src/lib.rs:16:14: 16:29"

const useAfterFreeDangling = "error: Undefined Behavior: pointer to alloc1567 was dereferenced after this allocation got freed\n" +
	"  --> src/lib.rs:11:29\n" +
	"   |\n" +
	"11 |     println!(\"{}\", unsafe { *p });\n" +
	"   |                             ^^ pointer to alloc1567 was dereferenced after this allocation got freed\n" +
	"   = note: inside `tests::access_returned_stack_address` at src/lib.rs:11:29: 11:31"

const nullDeref = "error: Undefined Behavior: dereferencing pointer failed: null pointer is a dangling pointer (it has no provenance)\n" +
	"  --> src/lib.rs:11:31\n" +
	"   |\n" +
	"11 |     println!(\"{:?}\", unsafe { (*foo_ptr).ptr });\n" +
	"   |                               ^^^^^^^^^^^^^^ dereferencing pointer failed: null pointer is a dangling pointer (it has no provenance)"

const memoryLeak = "error: memory leaked: alloc3 (C heap, size: 100, align: 16), allocated here:\n" +
	"  --> src/lib.rs:9:25\n" +
	"   |\n" +
	"9  |     let _buf = unsafe { libc::malloc(BUF_SIZE) };\n" +
	"   |                         ^^^^^^^^^^^^^^^^^^^^^^\n"
