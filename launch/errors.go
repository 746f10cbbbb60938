// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package launch

import "errors"

var (
	// ErrInvalidConfig indicates the launch configuration failed validation.
	ErrInvalidConfig = errors.New("invalid launch configuration")

	// ErrOutputDir indicates the result directory could not be created.
	ErrOutputDir = errors.New("cannot create result directory")

	// ErrEnvFile indicates the optional environment file could not be read.
	ErrEnvFile = errors.New("cannot read environment file")

	// ErrExternalProgram indicates the external program exited non-zero.
	ErrExternalProgram = errors.New("external program failed")

	// ErrStartProcess indicates the external program could not be started at all.
	ErrStartProcess = errors.New("cannot start external program")
)
