/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Every extension keeps a single configuration object in the database under the
"_c:<package>" key. The object is validated before being written, so a loaded
configuration is always a valid one. Configuration is usually written once
from the genesis file (see InitConfig) and later updated only by
administrative operations of the owning extension.
*/
package gconf
