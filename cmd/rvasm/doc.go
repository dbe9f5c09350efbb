// Command rvasm is a standalone assembler for the RV32IMAC subset of
// RISC-V: lexer, recursive-descent expression parser, and a twelve-pass
// resolver turn assembly source directly into a flat binary image, with
// no object file or linker stage.
//
// Usage:
//
//	rvasm <input> [flags]
//
//	--compress
//		  shrink eligible instructions to their RVC compressed form
//	--include dir
//		  directory to search for include/include_bytes directives
//		  (repeatable)
//	-o, --output filename
//		  output file for the assembled image (default "a.out", or the
//		  config's output.path)
//	--dump
//		  print the assembled image as hex instead of writing a file
//	--config filename
//		  path to an rvasm.toml config file (default: platform config dir)
//
// Exit status is 0 on success, non-zero on any assembler error. Errors
// are reported to stderr as "file:line: message".
package main
