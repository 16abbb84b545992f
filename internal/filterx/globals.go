package filterx

import "sync"

var globalInitOnce sync.Once

// InitGlobals registers the built-in types, interns the singletons and
// registers the built-in function set. Hosts call it once at startup; it
// is idempotent.
func InitGlobals() {
	globalInitOnce.Do(func() {
		RegisterType(TypeObject)

		RegisterType(TypeList)
		RegisterType(TypeDict)

		RegisterType(TypeNull)
		RegisterType(TypeInteger)
		RegisterType(TypeBoolean)
		RegisterType(TypeDouble)

		RegisterType(TypeString)
		RegisterType(TypeBytes)
		RegisterType(TypeProtobuf)

		RegisterType(TypeJSONObject)
		RegisterType(TypeJSONArray)
		RegisterType(TypeDatetime)
		RegisterType(TypeMessageValue)

		initNull()
		initBooleans()

		registerBuiltinFunctions()
	})
}

func registerBuiltinFunctions() {
	RegisterBuiltin("string", castString)
	RegisterBuiltin("bytes", castBytes)
	RegisterBuiltin("protobuf", castProtobuf)
	RegisterBuiltin("integer", castInteger)
	RegisterBuiltin("double", castDouble)
	RegisterBuiltin("boolean", castBoolean)
	RegisterBuiltin("parse_json", builtinParseJSON)
	RegisterBuiltin("format_json", builtinFormatJSON)

	RegisterBuiltinCtor("istype", newIsTypeFunction)
	RegisterBuiltinCtor("unset_empties", newUnsetEmptiesFunction)
	RegisterBuiltinCtor("cache_json_file", newCacheJSONFileFunction)
	RegisterBuiltinCtor("format_kv", newFormatKVFunction)
	RegisterBuiltinCtor("parse_xml", newParseXMLFunction)
	RegisterBuiltinCtor("parse_csv", newParseCSVFunction)
}
