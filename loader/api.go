package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", dice = {...}, ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.game = tbl
		return 0
	}))

	// Die "id" { faces = {...}, weights = {...} } is curried: Die("id")
	// returns a function that takes the table.
	L.SetGlobal("Die", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.dice = append(coll.dice, rawDie{id: id, table: tbl, order: coll.nextSourceOrder()})
			return 0
		}))
		return 1
	}))

	// FrequencyDie "id" "letters.txt" takes faces and weights from a
	// frequency table next to the Lua files.
	L.SetGlobal("FrequencyDie", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			file := L.CheckString(1)
			coll.dice = append(coll.dice, rawDie{id: id, file: file, order: coll.nextSourceOrder()})
			return 0
		}))
		return 1
	}))
}

func registerHelpers(L *lua.LState) {
	// Range(lo, hi) returns the integers lo..hi as a face list.
	L.SetGlobal("Range", L.NewFunction(func(L *lua.LState) int {
		lo := L.CheckInt(1)
		hi := L.CheckInt(2)
		if hi < lo {
			L.ArgError(2, "hi must not be less than lo")
		}
		tbl := L.NewTable()
		for i := lo; i <= hi; i++ {
			tbl.Append(lua.LNumber(i))
		}
		L.Push(tbl)
		return 1
	}))

	// Repeat(die, n) returns a list naming die n times, for Game.dice.
	L.SetGlobal("Repeat", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		n := L.CheckInt(2)
		tbl := L.NewTable()
		for i := 0; i < n; i++ {
			tbl.Append(lua.LString(id))
		}
		L.Push(tbl)
		return 1
	}))
}
