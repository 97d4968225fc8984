package app

import (
	"github.com/vk/cmdbridgego/internal/registry"
	"github.com/vk/cmdbridgego/modules/colors"
	"github.com/vk/cmdbridgego/modules/delayed_greeting"
	"github.com/vk/cmdbridgego/modules/env_vars"
	"github.com/vk/cmdbridgego/modules/greeting"
	"github.com/vk/cmdbridgego/modules/http_fetch"
	"github.com/vk/cmdbridgego/modules/noop"
	"github.com/vk/cmdbridgego/modules/optionals"
)

// coreModules is the definitive list of all command modules that are
// compiled into the cmdbridgego binary.
var coreModules = []registry.Module{
	&noop.Module{},
	&greeting.Module{},
	&delayed_greeting.Module{},
	&optionals.Module{},
	&colors.Module{},
	&env_vars.Module{},
	&http_fetch.Module{},
}
