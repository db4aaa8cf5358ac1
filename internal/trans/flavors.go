// Package trans loads schema packages into the flavored IR and translates
// them for output.
//
// The Environment is one loading session. Imports go through a Resolver,
// every loaded file is parsed and modeled under its own Scope, and each
// declaration registers in the shared registry. Translation consumes the
// environment exactly once: files rewrite in package order, and every
// declaration referenced from them is pulled into the output registry on
// first use, so declarations nothing reaches never surface.
package trans

import "ridl/internal/model"

// The core flavor is what loading produces: types keep their structure,
// packages keep their version, and enum domains stay structural.
type (
	CoreType     = *model.Type[model.VersionedPackage]
	CoreName     = model.Name[model.VersionedPackage]
	CoreFile     = model.File[CoreType, model.VersionedPackage, model.EnumType]
	CoreDecl     = model.Decl[CoreType, model.VersionedPackage, model.EnumType]
	CoreReg      = model.Reg[CoreType, model.VersionedPackage, model.EnumType]
	CoreRegistry = model.Registry[CoreType, model.VersionedPackage, model.EnumType]
)
