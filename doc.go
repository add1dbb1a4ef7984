// # export-apidoc
//
// `export-apidoc` walks a project's URL configuration, resolves the Go handler
// behind every route and turns the handlers' documentation comments into a
// single Markdown API reference.
//
// A handler is documented when its comment starts with a title line followed
// by the `Args:`, `Return:` and `Example:` sections, in that order:
//
//	// GetUser
//	//
//	// Args:
//	// id:int,user id
//	// Return:
//	// name:string,user name
//	// Example:
//	// {"name": "bob"}
//	func (v *UserViewSet) Retrieve(w http.ResponseWriter, r *http.Request) {}
//
// Parameter lines read `name:type,description`. Handlers without the three
// sections are skipped silently.
//
// ## Usage
//
//	export-apidoc [flags]
//
// Examples:
//
//   - Document every route of the project in the current directory:
//
//     export-apidoc
//
//   - Only document the `users` and `orders` apps, writing to stdout:
//
//     export-apidoc -a users -a orders -o -
//
//   - Combine several projects into one reference:
//
//     export-apidoc -s shop/apidoc.toml -s billing/apidoc.toml -o docs/api.md
//
// ## Settings
//
// Each settings file is TOML. `root_urlconf` is required and names the YAML
// urlconf to walk, relative to the settings file:
//
//	root_urlconf = "urls/root.yaml"
//	module = "example.com/shop"
//	apps = ["users"]
//	locale = "en"
//
// Every key can be overridden with an `APIDOC_` environment variable such as
// `APIDOC_ROOT_URLCONF`.
//
// ## Supported Flags
//
//   - `-o FILE`: write the reference to `FILE` (default `output.md`, `-` for
//     stdout). Missing parent directories are created.
//   - `-a APP`: restrict the reference to handlers of `APP`; repeatable.
//   - `-s FILE`: settings file to read (default `apidoc.toml`); repeatable.
//   - `--traceback`: print the full error chain when a urlconf fails to load.
//   - `--locale`: `zh` or `en` table headings.
//   - `-v`: verbose logging of skipped routes.
//
// ## Go routers
//
// Projects that register routes on a go-chi router can skip the urlconf and
// call the library directly: `chiroute.Routes` turns the router into routes
// and `apidoc.Generator` renders them into the same reference.
//
// Shell completion and CLI reference pages are available through the
// `completion` and `gen-docs` subcommands.
package main
