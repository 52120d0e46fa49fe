// Package catalog loads role catalogs and resource policies from YAML
// files.
//
// A catalog document declares roles (with their permissions and, for
// predefined roles, the roles they include) and per-resource policies:
//
//	roles:
//	  roles/viewer:
//	    permissions:
//	      - resourcemanager.projects.get
//	  roles/editor:
//	    permissions:
//	      - storage.objects.create
//	    includes:
//	      - roles/viewer
//	  projects/acme/roles/deployer:
//	    permissions:
//	      - custom.deploy
//	policies:
//	  acme:
//	    bindings:
//	      - role: roles/editor
//	        members:
//	          - user:a@x.com
//
// The loaded catalog satisfies both provider interfaces of the resolve
// package, so it can stand in for the live cloud APIs during local
// development and in tests.
package catalog
