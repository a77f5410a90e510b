// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package target

import "math"

// BankId captures the notion of a register bank index.  Banks partition the
// physical register file of a target (e.g. general-purpose vs floating-point)
// and are allocated dense indices starting from 0.  The bank catalog itself
// lives outside the target description; the identifier is declared here so
// that register-use tables can record bank assignments without depending on
// the bank registry.
type BankId uint

// InvalidBank is something akin to a null bank reference, used where a
// register may (or may not) have been assigned a bank.
const InvalidBank BankId = math.MaxUint
