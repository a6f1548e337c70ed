package bundle

// The runtime wraps the module table in a self-invoking function that
// defines require(id) and starts the program with require(0).
// runtimeCache is spliced in when Options.Memoize is set.
const (
	runtimeHeader = `(function (modules) {
`
	runtimeCache = `  var cache = {};
`
	runtimeRequireStart = `  function require(id) {
`
	runtimeCacheLookup = `    if (Object.prototype.hasOwnProperty.call(cache, id)) {
      return cache[id].exports;
    }
`
	runtimeRequireBody = `    var entry = modules[id];
    if (!entry) {
      throw new Error("leappack: unknown module id " + id);
    }
    var factory = entry[0];
    var mapping = entry[1];
    function localRequire(name) {
      if (!Object.prototype.hasOwnProperty.call(mapping, name)) {
        throw new Error("leappack: cannot find module '" + name + "'");
      }
      return require(mapping[name]);
    }
    var module = { exports: {} };
`
	runtimeCacheStore = `    cache[id] = module;
`
	runtimeRequireEnd = `    factory(localRequire, module, module.exports);
    return module.exports;
  }
  require(0);
})({
`
	runtimeFooter = `});
`
)
