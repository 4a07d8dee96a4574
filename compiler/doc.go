/*

Process of translation

Listing Text ->
	parse ->
Abstract Syntax Tree (ast) ->
	analyze ->
Decoded Instructions (mips) ->
	discover ->
Register Usage Table (back) ->
	emit ->
Stack Machine Operations (asm) ->
	format ->
Target Assembly Text

The operations may also be executed directly by the reference machine (vm).

*/
package compiler
