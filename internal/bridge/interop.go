package bridge

import (
	"sort"
	"strconv"

	lua "github.com/yuin/gopher-lua"
)

// pushFloatSlice converts a Go []float64 into a 1-indexed Lua array table.
func pushFloatSlice(L *lua.LState, data []float64) *lua.LTable {
	t := L.NewTable()
	for i, v := range data {
		t.RawSetInt(i+1, lua.LNumber(v))
	}
	return t
}

// pushStringParams converts a Go map[string]string into a Lua table keyed
// by the same string names, so scripts read params.k the way the native
// callers would.
func pushStringParams(L *lua.LState, params map[string]string) *lua.LTable {
	t := L.NewTable()
	for k, v := range params {
		t.RawSetString(k, lua.LString(v))
	}
	return t
}

// luaValueToGo converts the value a module function returned into a plain
// Go value (float64, string, bool, []interface{}, or map[string]interface{})
// suitable for json.Marshal by the caller. Unsupported Lua types (functions,
// userdata) produce an error rather than silently dropping data.
func luaValueToGo(v lua.LValue) (interface{}, *Error) {
	switch val := v.(type) {
	case lua.LNumber:
		return float64(val), nil
	case lua.LString:
		return string(val), nil
	case lua.LBool:
		return bool(val), nil
	case *lua.LNilType:
		return nil, nil
	case *lua.LTable:
		return luaTableToGo(val)
	default:
		return nil, newError(ErrRuntime, "module returned an unsupported Lua type: "+val.Type().String())
	}
}

// luaTableToGo distinguishes an array table (sequential integer keys
// starting at 1) from a map table, mirroring the convention most
// gopher-lua-based bridges use to interoperate with JSON.
func luaTableToGo(t *lua.LTable) (interface{}, *Error) {
	n := t.Len()
	if n > 0 && isSequentialArray(t, n) {
		out := make([]interface{}, n)
		for i := 1; i <= n; i++ {
			elem, err := luaValueToGo(t.RawGetInt(i))
			if err != nil {
				return nil, err
			}
			out[i-1] = elem
		}
		return out, nil
	}

	out := map[string]interface{}{}
	var rangeErr *Error
	t.ForEach(func(k, v lua.LValue) {
		if rangeErr != nil {
			return
		}
		key, ok := toStringKey(k)
		if !ok {
			rangeErr = newError(ErrRuntime, "module returned a table with a non-string, non-integer key")
			return
		}
		gv, err := luaValueToGo(v)
		if err != nil {
			rangeErr = err
			return
		}
		out[key] = gv
	})
	if rangeErr != nil {
		return nil, rangeErr
	}
	return out, nil
}

func isSequentialArray(t *lua.LTable, n int) bool {
	count := 0
	t.ForEach(func(k, _ lua.LValue) { count++ })
	return count == n
}

func toStringKey(k lua.LValue) (string, bool) {
	switch key := k.(type) {
	case lua.LString:
		return string(key), true
	case lua.LNumber:
		return strconv.FormatFloat(float64(key), 'g', -1, 64), true
	default:
		return "", false
	}
}

// sortedParamKeys is used only by tests and diagnostics to produce
// deterministic logging output over param maps.
func sortedParamKeys(params map[string]string) []string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
